package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "no version requirement found")

	require.Equal(t, CodeNotFound, err.Code())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Equal(t, "no version requirement found", err.Message())
	require.Nil(t, err.Unwrap())
	require.Nil(t, err.Context())
	require.Equal(t, "[NOT_FOUND] no version requirement found", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidInput, "unknown manager type %q", "volta")
	require.Equal(t, `unknown manager type "volta"`, err.Message())
}

func TestDefaultClassification(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{CodeTimeout, true},
		{CodeProbeFailed, true},
		{CodeReadFailed, true},
		{CodeParseFailed, false},
		{CodeExecutionFailed, false},
		{CodeInvalidConfig, false},
		{ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, New(tt.code, "x").Classification().IsRetryable())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("exit status 127")
	err := Wrap(cause, CodeProbeFailed, "fnm probe failed")

	require.Equal(t, CodeProbeFailed, err.Code())
	require.Equal(t, cause, err.Unwrap())
	require.True(t, stderrors.Is(err, cause))
	require.Equal(t, "[PROBE_FAILED] fnm probe failed: exit status 127", err.Error())
}

func TestWrap_NilError(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeReadFailed, "x"))
	require.Nil(t, Wrapf(nil, CodeReadFailed, "x %s", "y"))
	require.Nil(t, WrapWithContext(nil, CodeReadFailed, "x", nil))
}

func TestWrap_PreservesClassification(t *testing.T) {
	original := New(CodeTimeout, "probe timed out")
	wrapped := Wrap(original, CodeExecutionFailed, "nvm failed")

	require.Equal(t, CodeExecutionFailed, wrapped.Code())
	require.True(t, wrapped.Classification().IsRetryable())
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	fields := map[string]any{"path": "/p/.nvmrc"}
	err := WrapWithContext(stderrors.New("boom"), CodeReadFailed, "read failed", fields)

	fields["path"] = "mutated"
	require.Equal(t, "/p/.nvmrc", err.Context()["path"])

	ctx := err.Context()
	ctx["path"] = "mutated again"
	require.Equal(t, "/p/.nvmrc", err.Context()["path"])
}

func TestWithContext(t *testing.T) {
	err := New(CodeProbeFailed, "probe failed")
	err = WithContext(err, "manager", "nvm")
	err = WithContext(err, "platform", "linux")

	require.Equal(t, CodeProbeFailed, err.Code())
	require.Equal(t, map[string]any{"manager": "nvm", "platform": "linux"}, err.Context())
}

func TestWithContext_StandardError(t *testing.T) {
	std := stderrors.New("plain")
	err := WithContext(std, "k", "v")

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, "plain", err.Message())
	require.True(t, stderrors.Is(err, std))
}

func TestWithContextMap_Overrides(t *testing.T) {
	err := WithContextMap(New(CodeReadFailed, "x"), map[string]any{"a": 1, "b": 2})
	err = WithContextMap(err, map[string]any{"b": 3})

	require.Equal(t, map[string]any{"a": 1, "b": 3}, err.Context())
	require.Nil(t, WithContextMap(nil, map[string]any{"a": 1}))
}

func TestGetCode(t *testing.T) {
	require.Equal(t, CodeUnknown, GetCode(nil))
	require.Equal(t, CodeUnknown, GetCode(stderrors.New("x")))

	inner := New(CodeTimeout, "inner")
	outer := fmt.Errorf("outer: %w", inner)
	require.Equal(t, CodeTimeout, GetCode(outer))
	require.True(t, IsRetryable(outer))
	require.False(t, IsRetryable(nil))
}

func TestToJSON(t *testing.T) {
	require.Nil(t, ToJSON(nil))

	err := WithContext(New(CodeInvalidInput, "bad spec"), "required", ">=x")
	resp := ToJSON(err)
	require.Equal(t, "INVALID_INPUT", resp.Code)
	require.Equal(t, "bad spec", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
	require.Equal(t, ">=x", resp.Context["required"])

	std := ToJSON(stderrors.New("plain"))
	require.Equal(t, "UNKNOWN", std.Code)
	require.Equal(t, "plain", std.Message)
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New(CodeNotFound, "missing"))
	require.NoError(t, err)
	require.JSONEq(t, `{"code":"NOT_FOUND","message":"missing","classification":"PERMANENT"}`, string(data))
}
