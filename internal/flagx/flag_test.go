package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			"keeps allowed flag with value",
			[]string{"-d", "diary.db", "-x", "ignored"},
			[]string{"-d"},
			[]string{"-d", "diary.db"},
		},
		{
			"equals form",
			[]string{"--config=cfg.json", "-d=diary.db", "--other=1"},
			[]string{"--config", "-d"},
			[]string{"--config=cfg.json", "-d=diary.db"},
		},
		{
			"flag without value before another flag",
			[]string{"-v", "-d", "diary.db"},
			[]string{"-v", "-d"},
			[]string{"-v", "-d", "diary.db"},
		},
		{
			"nothing allowed",
			[]string{"-d", "diary.db"},
			nil,
			[]string{},
		},
		{
			"empty args",
			nil,
			[]string{"-d"},
			[]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
