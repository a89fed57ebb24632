package model

import "testing"

func TestComponentIsValid(t *testing.T) {
	for _, c := range AllComponents() {
		if !c.IsValid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if Component("plugins").IsValid() {
		t.Error("expected 'plugins' to be invalid")
	}
	if Component("").IsValid() {
		t.Error("expected empty component to be invalid")
	}
}

func TestComponentSingular(t *testing.T) {
	tests := map[Component]string{
		Skills:   "skill",
		Agents:   "agent",
		Commands: "command",
		Hooks:    "hook",
	}
	for c, want := range tests {
		if got := c.Singular(); got != want {
			t.Errorf("%s.Singular() = %q, want %q", c, got, want)
		}
	}
}

func TestParseComponent(t *testing.T) {
	tests := map[string]struct {
		input  string
		want   Component
		wantOK bool
	}{
		"plural":       {input: "skills", want: Skills, wantOK: true},
		"singular":     {input: "agent", want: Agents, wantOK: true},
		"mixed case":   {input: "Hooks", want: Hooks, wantOK: true},
		"whitespace":   {input: " command ", want: Commands, wantOK: true},
		"unrecognized": {input: "widgets", wantOK: false},
		"empty":        {input: "", wantOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseComponent(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseComponent(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseComponent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlatformIsValid(t *testing.T) {
	for _, p := range AllPlatforms() {
		if !p.IsValid() {
			t.Errorf("expected %s to be valid", p)
		}
	}
	if Platform("claude-code").IsValid() {
		t.Error("expected 'claude-code' to be invalid: it is the source format, not a target")
	}
}
