package main

import (
	"flag"
	"os"
	"strings"
	"testing"
)

// TestMainFlags verifies that command-line flags are parsed correctly.
func TestMainFlags(t *testing.T) {
	oldArgs := os.Args

	t.Cleanup(func() { os.Args = oldArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd", "--note", "C#4", "--duration", "0.25"}

	noteFlag := flag.String(flagNote, "", flagNoteDesc)
	durationFlag := flag.Float64(flagDuration, defaultDuration, flagDurationDesc)
	flag.Parse()

	if *noteFlag != "C#4" {
		t.Errorf("Expected note flag %q, got %q", "C#4", *noteFlag)
	}

	if *durationFlag != 0.25 {
		t.Errorf("Expected duration flag %v, got %v", 0.25, *durationFlag)
	}
}

// TestArgumentValidation verifies the business logic for required and
// conflicting arguments.
func TestArgumentValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		flags         appFlags
		expectedError string
		wantErr       bool
	}{
		{
			name:          "success with note flag",
			flags:         appFlags{note: "A4"},
			wantErr:       false,
			expectedError: "",
		},
		{
			name:          "success with score flag",
			flags:         appFlags{score: "tune.txt"},
			wantErr:       false,
			expectedError: "",
		},
		{
			name:          "success with publish flag",
			flags:         appFlags{publish: "tune.txt"},
			wantErr:       false,
			expectedError: "",
		},
		{
			name:          "error with both note and score",
			flags:         appFlags{note: "A4", score: "tune.txt"},
			wantErr:       true,
			expectedError: errExactlyOneMode,
		},
		{
			name:          "error with no mode",
			flags:         appFlags{},
			wantErr:       true,
			expectedError: errExactlyOneMode,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := validateArguments(testCase.flags)
			validateTestResult(t, testCase.wantErr, testCase.expectedError, err)
		})
	}
}

// validateTestResult checks if the test result matches expectations.
func validateTestResult(t *testing.T, wantErr bool, expectedError string, err error) {
	t.Helper()

	if wantErr {
		if err == nil {
			t.Errorf("Expected an error but got none")

			return
		}

		if !strings.Contains(err.Error(), expectedError) {
			t.Errorf(
				"Expected error to contain %q, but got %q",
				expectedError,
				err.Error(),
			)
		}

		return
	}

	if err != nil {
		t.Errorf("Did not expect an error, but got: %v", err)
	}
}
