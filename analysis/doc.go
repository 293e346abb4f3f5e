// Package analysis inspects a decoded UF2 image before it is flashed.
//
// Three independent reports are produced from a firmware.Image:
//   - Layout: the address span of every block, in stream order
//   - Coverage: gaps and overlaps between address-sorted blocks
//   - Vector table: the Cortex-M exception vectors at the start of the image,
//     only when the image loads at the expected entry address
//
// All functions are pure; rendering the reports is left to the caller.
//
//	report, err := analysis.Analyze(img, analysis.DefaultEntryAddress, analysis.CortexM)
//	if err != nil {
//	    return err
//	}
//	for _, f := range report.Coverage {
//	    fmt.Println(f)
//	}
package analysis
