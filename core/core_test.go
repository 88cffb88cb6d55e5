package core

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseOrderings(t *testing.T) {
	allowed := []string{"code", "credits"}
	tests := []struct {
		name  string
		param string
		want  []DBOrdering
	}{
		{name: "empty", param: "", want: nil},
		{name: "ascending", param: "code", want: []DBOrdering{{Field: "code", Ascending: true}}},
		{
			name:  "mixed with spaces",
			param: " -credits , code",
			want:  []DBOrdering{{Field: "credits"}, {Field: "code", Ascending: true}},
		},
		{name: "unknown dropped", param: "password,-code", want: []DBOrdering{{Field: "code"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrderings(tt.param, allowed...))
		})
	}
}

func TestDBOrdering_String(t *testing.T) {
	assert.Equal(t, "code ASC", DBOrdering{Field: "code", Ascending: true}.String())
	assert.Equal(t, "credits DESC", DBOrdering{Field: "credits"}.String())
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "CS301", CleanString("  CS301 \n"))
	assert.Equal(t, "cs301", CleanString(" CS301 ", true))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "time: taken", NewValidationError(nil, FieldError{Field: "time", Error: "taken"}).Error())
	assert.Equal(t, "", NewValidationError(nil).Error())
	assert.True(t, IsShutdown(NewShutdownError("integrity")))
	assert.False(t, IsShutdown(NewValidationError(nil)))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		conf := LoadConfig(viper.New())
		assert.Equal(t, 24, conf.Registration.MaxCredits)
		assert.Equal(t, "inmem", conf.Database.Engine)
		assert.True(t, conf.Catalog.Seed)
	})

	t.Run("environment overrides", func(t *testing.T) {
		setenv(t, "ENV", "qa")
		setenv(t, "QA_REGISTRATION_MAXCREDITS", "18")
		setenv(t, "QA_DATABASE_ENGINE", "postgres")

		conf := LoadConfig(viper.New())
		assert.Equal(t, "QA", conf.Env)
		assert.Equal(t, 18, conf.Registration.MaxCredits)
		assert.Equal(t, "postgres", conf.Database.Engine)
		assert.False(t, conf.TestMode)
	})

	t.Run("test mode", func(t *testing.T) {
		setenv(t, "ENV", "test")
		assert.True(t, LoadConfig(viper.New()).TestMode)
	})
}

// setenv sets key for the duration of the test.
func setenv(t *testing.T, key, value string) {
	orig, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv(%s): %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, orig)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}
