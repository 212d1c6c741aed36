package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewVcsError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "vcsmap trees"}}

	err := NewVcsError(TreeNotFound, "tree 'main' is not configured", cause, fixes)

	if err.Code != TreeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, TreeNotFound)
	}
	if err.Message != "tree 'main' is not configured" {
		t.Errorf("Message = %q, want %q", err.Message, "tree 'main' is not configured")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestVcsError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      BackendUnavailable,
			message:   "hg not installed",
			cause:     errors.New("executable file not found"),
			wantParts: []string{"BACKEND_UNAVAILABLE", "hg not installed", "executable file not found"},
		},
		{
			name:      "without cause",
			code:      PathNotTracked,
			message:   "path 'a/b.c' not in snapshot",
			cause:     nil,
			wantParts: []string{"PATH_NOT_TRACKED", "path 'a/b.c' not in snapshot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewVcsError(tt.code, tt.message, tt.cause, nil)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestVcsError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewVcsError(InternalError, "something went wrong", cause, nil)

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test nil cause
	errNoCause := NewVcsError(Timeout, "command timed out", nil, nil)
	if errNoCause.Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestVcsError_WithDetails(t *testing.T) {
	err := NewVcsError(InvocationFailed, "git exited non-zero", nil, nil)
	details := map[string]string{"stderr": "fatal: not a git repository"}

	result := err.WithDetails(details)

	// Check that it returns the same error (for chaining)
	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}

	// Check details are set
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "direct VcsError",
			err:  NewVcsError(ContentUnavailable, "no backend could fetch", nil, nil),
			want: ContentUnavailable,
		},
		{
			name: "wrapped VcsError",
			err:  fmt.Errorf("resolving: %w", NewVcsError(Timeout, "deadline hit", nil, nil)),
			want: Timeout,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: InternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := NewVcsError(UpstreamUnsupported, "remote form not recognized", nil, nil)

	if !IsCode(err, UpstreamUnsupported) {
		t.Error("IsCode should match the carried code")
	}
	if IsCode(err, PathNotTracked) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), UpstreamUnsupported) {
		t.Error("IsCode on a plain error should be false")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
		wantLen int
	}{
		{BackendUnavailable, false, 1},
		{TreeNotFound, false, 1},
		{ConfigInvalid, false, 1},
		{PathNotTracked, true, 0}, // No predefined fixes
		{Timeout, true, 0},        // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, len(fixes), tt.wantLen)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	// Ensure all error codes are unique
	codes := []ErrorCode{
		BackendUnavailable,
		InvocationFailed,
		Timeout,
		UpstreamUnsupported,
		PathNotTracked,
		ContentUnavailable,
		TreeNotFound,
		ConfigInvalid,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		// Ensure each code is a non-empty string
		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	// Verify each entry has valid fix actions
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}
