package cli

import (
	"fmt"
	"io"
)

func returnUsageError(w, wErr io.Writer, gf GlobalFlags, usage, version string, parseErr error) int {
	if gf.JSON {
		message := usage
		details := any(nil)
		if parseErr != nil {
			message = parseErr.Error()
			details = map[string]any{"usage": usage}
		}
		ReturnError(w, "usage_error", message, details, version)
		return ExitUsage
	}

	if parseErr != nil {
		Errorf(wErr, "%v", parseErr)
	}
	fmt.Fprintln(wErr, usage)
	return ExitUsage
}

// returnFailure reports err under code in the active output mode and
// returns exit.
func returnFailure(w, wErr io.Writer, gf GlobalFlags, code string, err error, details any, exit int, version string) int {
	if gf.JSON {
		ReturnError(w, code, err.Error(), details, version)
	} else {
		Errorf(wErr, "%v", err)
	}
	return exit
}
