// Package ui renders the one-shot output of pilightctl's CLI commands.
//
// The interactive control panel lives in internal/tui. Commands that run
// once and exit (config save, driver start, scan, ...) print through a
// Printer instead: a header naming the operation, then a success or
// failure box. Failure boxes carry troubleshooting tips derived from the
// API error type.
//
// Example:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Save Config", "pilightctl config save", map[string]string{"Name": name})
//	if err != nil {
//	    p.PrintError("Save failed", err, tips)
//	    return err
//	}
//	p.PrintSuccess("Config saved", map[string]string{"Configs": "4"})
//
// # Logging Integration
//
// zap logging is silent unless PILIGHT_LOG_LEVEL or --log-level is set, so
// the curated output is displayed cleanly.
package ui
