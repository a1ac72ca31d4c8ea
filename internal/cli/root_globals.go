package cli

import (
	"errors"
	"strings"
)

// ParseGlobalFlags extracts global flags from CLI args.
//
// Globals in the prefix are consumed first. Globals after the command path
// are consumed too, except where they sit in the value slot of a
// command-local flag (for example `replay --file --json` reads a file
// literally named "--json").
func ParseGlobalFlags(args []string) (GlobalFlags, []string, error) {
	var gf GlobalFlags

	i := 0
	for i < len(args) {
		consumed, next, err := parseGlobalFlagAt(args, i, &gf)
		if err != nil {
			return gf, nil, err
		}
		if !consumed {
			break
		}
		i = next
	}

	rest := append([]string(nil), args[i:]...)
	if len(rest) == 0 {
		return gf, nil, nil
	}

	pathTokenIndexes, localValueFlags, err := commandPathParseRules(rest)
	if err != nil {
		return gf, nil, err
	}
	filtered := make([]string, 0, len(rest))

	expectLocalValue := false
	for j := 0; j < len(rest); j++ {
		arg := rest[j]

		if _, isPathToken := pathTokenIndexes[j]; isPathToken {
			filtered = append(filtered, arg)
			continue
		}

		if expectLocalValue {
			filtered = append(filtered, arg)
			expectLocalValue = false
			continue
		}

		if localFlagRequiresValue(localValueFlags, arg) {
			filtered = append(filtered, arg)
			if !strings.Contains(arg, "=") {
				expectLocalValue = true
			}
			continue
		}

		consumed, next, err := parseGlobalFlagAt(rest, j, &gf)
		if err != nil {
			return gf, nil, err
		}
		if consumed {
			j = next - 1
			continue
		}

		filtered = append(filtered, arg)
	}

	if len(filtered) == 0 {
		return gf, nil, nil
	}
	return gf, filtered, nil
}

func parseGlobalFlagAt(args []string, i int, gf *GlobalFlags) (bool, int, error) {
	if i < 0 || i >= len(args) {
		return false, i, nil
	}
	arg := args[i]
	switch arg {
	case "--json":
		if gf != nil {
			gf.JSON = true
		}
		return true, i + 1, nil
	case "--no-color":
		if gf != nil {
			gf.NoColor = true
		}
		return true, i + 1, nil
	case "--quiet", "-q":
		if gf != nil {
			gf.Quiet = true
		}
		return true, i + 1, nil
	case "--config":
		if i+1 >= len(args) {
			return true, i + 1, errors.New("--config requires a value")
		}
		if args[i+1] == "" {
			return true, i + 2, errors.New("--config requires a non-empty value")
		}
		if gf != nil {
			gf.ConfigPath = args[i+1]
		}
		return true, i + 2, nil
	default:
		if strings.HasPrefix(arg, "--config=") {
			val := strings.TrimPrefix(arg, "--config=")
			if val == "" {
				return true, i + 1, errors.New("--config requires a non-empty value")
			}
			if gf != nil {
				gf.ConfigPath = val
			}
			return true, i + 1, nil
		}
	}
	return false, i + 1, nil
}

func commandPathParseRules(args []string) (map[int]struct{}, map[string]struct{}, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return nil, nil, nil
	}

	pathTokens := []string{args[0]}
	pathIndexes := []int{0}

	switch args[0] {
	case "utm", "logs", "config":
		token, idx, ok, err := nextCommandToken(args, 1)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			pathTokens = append(pathTokens, token)
			pathIndexes = append(pathIndexes, idx)
		}
	}

	tokenIndexSet := make(map[int]struct{}, len(pathIndexes))
	for _, idx := range pathIndexes {
		tokenIndexSet[idx] = struct{}{}
	}
	return tokenIndexSet, localFlagsRequiringValue(strings.Join(pathTokens, " ")), nil
}

func nextCommandToken(args []string, start int) (token string, tokenIndex int, ok bool, err error) {
	for i := start; i < len(args); {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			consumed, following, parseErr := parseGlobalFlagAt(args, i, nil)
			if parseErr != nil {
				return "", 0, false, parseErr
			}
			if consumed {
				i = following
				continue
			}
			return "", 0, false, nil
		}
		return arg, i, true, nil
	}
	return "", 0, false, nil
}

func localFlagsRequiringValue(pathKey string) map[string]struct{} {
	switch pathKey {
	case "bbox", "overlay":
		return map[string]struct{}{
			"--lat":      {},
			"--lon":      {},
			"--size-km":  {},
			"--rounding": {},
		}
	case "utm forward":
		return map[string]struct{}{"--lat": {}, "--lon": {}}
	case "utm inverse":
		return map[string]struct{}{
			"--easting":  {},
			"--northing": {},
			"--zone":     {},
			"--letter":   {},
		}
	case "replay":
		return map[string]struct{}{
			"--file":     {},
			"--size-km":  {},
			"--rounding": {},
		}
	case "logs tail":
		return map[string]struct{}{"--lines": {}}
	default:
		return nil
	}
}

func localFlagRequiresValue(localValueFlags map[string]struct{}, arg string) bool {
	if len(localValueFlags) == 0 || !strings.HasPrefix(arg, "-") {
		return false
	}

	name := arg
	if idx := strings.Index(name, "="); idx >= 0 {
		name = name[:idx]
	}
	_, ok := localValueFlags[name]
	return ok
}

// parseErrorWantsJSON reports whether a global flag parse failure should be
// reported as an envelope. A later --json still opts in.
func parseErrorWantsJSON(args []string, gf GlobalFlags) bool {
	if gf.JSON {
		return true
	}
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}
