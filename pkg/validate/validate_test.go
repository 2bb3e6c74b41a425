package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" validate:"required"`
	Mode  string   `json:"mode" default:"fast" validate:"oneof=fast slow"`
	Ratio *float64 `yaml:"ratio" validate:"required,gte=0,lte=1"`
	Count int      `json:"count,omitempty" default:"3" validate:"min=1"`
}

func TestStructAppliesDefaults(t *testing.T) {
	r := 0.5
	s := &sample{Name: "a", Ratio: &r}
	require.NoError(t, Struct(context.Background(), s))
	assert.Equal(t, "fast", s.Mode)
	assert.Equal(t, 3, s.Count)
}

func TestStructReportsCodedErrors(t *testing.T) {
	r := 1.5
	s := &sample{Mode: "medium", Ratio: &r}
	err := Struct(context.Background(), s)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 3)

	byField := map[string]FieldError{}
	for _, fe := range errs {
		byField[fe.Field] = fe
	}
	assert.Equal(t, "ERR_REQUIRED", byField["name"].Code)
	assert.Equal(t, "name is required", byField["name"].Message)
	assert.Equal(t, "ERR_ONEOF", byField["mode"].Code)
	assert.Equal(t, []string{"fast", "slow"}, byField["mode"].Params["options"])
	assert.Equal(t, "ERR_LTE", byField["ratio"].Code)
	assert.Equal(t, "1", byField["ratio"].Params["max"])
	assert.Contains(t, err.Error(), "mode must be one of: fast, slow")
}

func TestStructMissingPointer(t *testing.T) {
	err := Struct(context.Background(), &sample{Name: "a"})
	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "ratio", errs[0].Field)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
}

func TestCheckLeavesDefaultsAlone(t *testing.T) {
	r := 0.1
	s := &sample{Name: "a", Mode: "slow", Ratio: &r}
	err := Check(context.Background(), s)
	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "ERR_MIN", errs[0].Code)
	assert.Equal(t, 0, s.Count)
}
