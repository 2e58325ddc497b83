package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name string `validate:"notblank"`
	Date string `validate:"isodate"`
	Time string `validate:"timeofday"`
}

func TestBindingRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(form{Name: "Rex", Date: "2030-01-07", Time: "09:30"}))
	assert.NoError(t, v.Struct(form{Name: "Rex", Date: "2030-01-07", Time: "09:30:00"}))

	assert.Error(t, v.Struct(form{Name: "   ", Date: "2030-01-07", Time: "09:30"}))
	assert.Error(t, v.Struct(form{Name: "Rex", Date: "07/01/2030", Time: "09:30"}))
	assert.Error(t, v.Struct(form{Name: "Rex", Date: "2030-02-30", Time: "09:30"}))
	assert.Error(t, v.Struct(form{Name: "Rex", Date: "2030-01-07", Time: "9h30"}))
}

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	assert.False(t, IsEmailDomainValid("no-at-sign"))
	assert.False(t, IsEmailDomainValid("trailing@"))
}
