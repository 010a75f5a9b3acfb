package termguard

import "testing"

func TestShouldSuppressTTYQueries(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		envTest bool
		want    bool
	}{
		{"tui", []string{"neuralx"}, false, false},
		{"tui light", []string{"neuralx", "--light"}, false, false},
		{"tui with config", []string{"neuralx", "--config", "x.yaml"}, false, false},
		{"test mode", []string{"neuralx"}, true, true},
		{"version cmd", []string{"neuralx", "version"}, false, true},
		{"version flag", []string{"neuralx", "--version"}, false, true},
		{"help", []string{"neuralx", "--help"}, false, true},
		{"help short", []string{"neuralx", "export", "-h"}, false, true},
		{"export svg", []string{"neuralx", "export", "svg", "out.svg"}, false, true},
		{"export all", []string{"neuralx", "--config", "c.yaml", "export", "all", "out"}, false, true},
		{"export wizard", []string{"neuralx", "export"}, false, false},
		{"cite picker", []string{"neuralx", "cite"}, false, false},
		{"cite format", []string{"neuralx", "cite", "--format", "bibtex"}, false, true},
		{"cite format eq", []string{"neuralx", "cite", "--format=apa"}, false, true},
		{"empty", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldSuppressTTYQueries(tt.args, tt.envTest); got != tt.want {
				t.Errorf("ShouldSuppressTTYQueries(%q, %v) = %v, want %v", tt.args, tt.envTest, got, tt.want)
			}
		})
	}
}
