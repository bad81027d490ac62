package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "toggle"
	toggleFlagTrueLiteral    = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	errorToggleValueFormat   = "invalid value %q for --%s; accepted values: %s"
	flagArgumentTerminator   = "--"
	longFlagPrefix           = "--"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseToggleLiteral(input string) (bool, bool) {
	parsed, known := toggleLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, known
}

// toggleFlag is a boolean flag that also accepts yes/no style literals,
// so that `--copy no` works alongside `--copy=false`.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		*flag.target = true
		return nil
	}
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, flag.name, toggleFlagAcceptedValues)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag binds a toggle flag to target. A bare flag means true.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.VarP(&toggleFlag{target: target, name: name}, name, shorthand, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = strconv.FormatBool(defaultValue)
		registered.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// normalizeToggleArguments rewrites `--flag value` into `--flag=value` for
// toggle flags followed by a recognized literal. pflag would otherwise treat
// the literal as a positional argument.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggles := map[string]struct{}{}
	collectToggleNames(command, toggles)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == flagArgumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		name := strings.TrimPrefix(current, longFlagPrefix)
		if _, isToggle := toggles[name]; isToggle && strings.HasPrefix(current, longFlagPrefix) && index+1 < len(arguments) {
			if _, known := parseToggleLiteral(arguments[index+1]); known {
				normalized = append(normalized, current+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func collectToggleNames(command *cobra.Command, names map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleNames(child, names)
	}
}
