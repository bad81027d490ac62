package cli

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
)

func TestToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "defaults_to_true", defaultValue: true, arguments: []string{}, expected: true},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--copy", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--copy", "on"}, expected: true},
		{name: "leaves_positional_argument", arguments: []string{"--copy", "./project"}, expected: true},
		{name: "rejects_invalid_literal", arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			command.SetErr(io.Discard)
			var flagValue bool
			registerToggleFlag(command.Flags(), &flagValue, "copy", "", testCase.defaultValue, "copy output")
			parseErr := command.ParseFlags(normalizeToggleArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeToggleArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{Use: "toggle-test"}
	var flagValue bool
	registerToggleFlag(command.Flags(), &flagValue, "stdout", "", false, "print")

	normalized := normalizeToggleArguments(command, []string{"--stdout", "yes", "--", "--stdout", "no"})

	expected := []string{"--stdout=yes", "--", "--stdout", "no"}
	if len(normalized) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
	for index := range expected {
		if normalized[index] != expected[index] {
			t.Fatalf("expected %v, got %v", expected, normalized)
		}
	}
}
