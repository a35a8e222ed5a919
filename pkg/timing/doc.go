// Package timing reads E3SM timing logs.
//
// # Overview
//
// An E3SM run writes an `e3sm_timing.<case>.<lid>` file into its timing
// directory. Two parts of that file are used here:
//
//   - Per-component run-time lines such as
//     "    ATM Run Time:     812.340 seconds    26.204 seconds/mday"
//   - The PE layout table, a block of rows like
//     "  atm = eam        1024        0        1024   x 1       1      (1     )"
//     where the 5th field is the root PE and the 6th the task count.
//
// The layout table is located by line number, not by content. In every
// timing file seen so far it occupies lines 18-27; [DefaultBlockStart] and
// [DefaultBlockLines] encode that, and [Options] lets callers move the window
// for files that deviate. Rows inside the window that do not fit the
// expected shape are logged rather than silently reinterpreted.
//
// # Usage
//
//	log, err := timing.Parse("e3sm_timing.mycase.250519-101010", timing.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(log.RunTime[timing.ATM], log.Ranges[timing.ATM])
//
// A component with no run-time line is recorded as 0 seconds; a component
// with no layout row is an error carrying [errors.MissingConfigurationError].
//
// [errors.MissingConfigurationError]: github.com/matzehuels/pacefig/pkg/errors.MissingConfigurationError
package timing
