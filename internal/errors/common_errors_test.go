package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeEmptyInput,
				Message: "no data in Prenoms2003.csv",
			},
			wantMessage: "[EMPTY_INPUT] no data in Prenoms2003.csv",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "error parsing Prenoms2004.csv",
				Cause:   errors.New("wrong number of fields"),
			},
			wantMessage: "[PARSING] error parsing Prenoms2004.csv: wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewNotFoundError("missing.csv", cause)

	assert.True(t, errors.Is(err, os.ErrNotExist))

	wrapped := fmt.Errorf("load first dataset: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeNotFound, appErr.Type)
	assert.Equal(t, "missing.csv", appErr.Context[ContextFile])
}

func TestNewSchemaError(t *testing.T) {
	missing := []string{"prenom", "nombre"}
	err := NewSchemaError("Prenoms2003.csv", missing)

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "[prenom, nombre]")
	assert.Equal(t, []string{"prenom", "nombre"}, MissingColumns(err))

	// caller's slice must not leak into the error
	missing[0] = "changed"
	assert.Equal(t, []string{"prenom", "nombre"}, MissingColumns(err))
}

func TestMissingColumns_NonSchemaError(t *testing.T) {
	assert.Nil(t, MissingColumns(errors.New("plain")))
	assert.Nil(t, MissingColumns(NewEmptyInputError("a.csv")))
}

func TestNewExportError(t *testing.T) {
	tests := []struct {
		name           string
		cause          error
		wantPermission bool
		wantMessage    string
	}{
		{
			name:           "permission denied",
			cause:          &fs.PathError{Op: "open", Path: "out.csv", Err: fs.ErrPermission},
			wantPermission: true,
			wantMessage:    "permission denied when writing out.csv",
		},
		{
			name:           "other io error",
			cause:          errors.New("disk full"),
			wantPermission: false,
			wantMessage:    "error exporting out.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExportError("out.csv", tt.cause)

			assert.Equal(t, ErrTypeExport, err.Type)
			assert.Equal(t, tt.wantMessage, err.Message)
			assert.Equal(t, tt.wantPermission, IsPermission(err))
			assert.False(t, err.Fatal())
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"not found", NewNotFoundError("a.csv", nil), ErrTypeNotFound},
		{"empty", NewEmptyInputError("a.csv"), ErrTypeEmptyInput},
		{"parsing", NewParsingError("bad row", nil), ErrTypeParsing},
		{"schema", NewSchemaError("a.csv", []string{"sexe"}), ErrTypeSchema},
		{"config", NewConfigError("bad config", nil), ErrTypeConfig},
		{"wrapped", fmt.Errorf("ctx: %w", NewEmptyInputError("a.csv")), ErrTypeEmptyInput},
		{"plain error", errors.New("boom"), ErrTypeUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
			assert.True(t, IsType(tt.err, tt.want))
		})
	}

	assert.False(t, IsType(nil, ErrTypeUnexpected))
}

func TestAppError_Fatal(t *testing.T) {
	assert.True(t, NewNotFoundError("a.csv", nil).Fatal())
	assert.True(t, NewSchemaError("a.csv", []string{"nombre"}).Fatal())
	assert.True(t, NewUnexpectedError("boom", nil).Fatal())
	assert.False(t, NewExportError("a.csv", errors.New("x")).Fatal())
}
