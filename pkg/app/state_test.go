package app

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewStateStartsOnLanding(t *testing.T) {
	for _, dark := range []bool{true, false} {
		s := NewState(dark)
		if s.View != Landing {
			t.Errorf("NewState(%v).View = %v, want landing", dark, s.View)
		}
		if s.Dark != dark {
			t.Errorf("NewState(%v).Dark = %v", dark, s.Dark)
		}
	}
}

func TestViewValidity(t *testing.T) {
	for _, v := range Views() {
		if !v.Valid() {
			t.Errorf("%v should be valid", v)
		}
	}
	var zero View
	if zero.Valid() {
		t.Error("zero View should not be valid")
	}
	if zero.String() != "none" {
		t.Errorf("zero View String() = %q, want none", zero.String())
	}
}

func TestViewStrings(t *testing.T) {
	want := map[View]string{Landing: "landing", Reader: "reader", Dashboard: "dashboard"}
	for v, name := range want {
		if v.String() != name {
			t.Errorf("String() = %q, want %q", v.String(), name)
		}
	}
}

func TestNavigateDoesNotMutateReceiver(t *testing.T) {
	s := NewState(true)
	next := s.Navigate(Reader)
	if s.View != Landing {
		t.Fatalf("receiver mutated: %v", s.View)
	}
	if next.View != Reader {
		t.Fatalf("Navigate(Reader).View = %v", next.View)
	}
	if next.Dark != s.Dark {
		t.Fatal("Navigate must not touch the theme")
	}
}

func TestThemeName(t *testing.T) {
	if got := NewState(true).ThemeName(); got != "dark" {
		t.Errorf("ThemeName() = %q, want dark", got)
	}
	if got := NewState(false).ThemeName(); got != "light" {
		t.Errorf("ThemeName() = %q, want light", got)
	}
}

func TestToggleThemeTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dark := rapid.Bool().Draw(t, "dark")
		v := rapid.SampledFrom(Views()).Draw(t, "view")
		s := State{View: v, Dark: dark}
		if got := s.ToggleTheme().ToggleTheme(); got != s {
			t.Fatalf("toggle twice = %+v, want %+v", got, s)
		}
		if s.ToggleTheme().ThemeName() == s.ThemeName() {
			t.Fatal("single toggle must change the theme name")
		}
	})
}

func TestBackAlwaysReturnsToLanding(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewState(rapid.Bool().Draw(t, "dark"))
		steps := rapid.SliceOf(rapid.SampledFrom(Views())).Draw(t, "path")
		for _, v := range steps {
			s = s.Navigate(v)
		}
		if got := s.Back().View; got != Landing {
			t.Fatalf("Back() after %v = %v, want landing", steps, got)
		}
	})
}

func TestReaderDashboardRoundTrip(t *testing.T) {
	s := NewState(true).Navigate(Reader).Back().Navigate(Dashboard).Back()
	if s.View != Landing {
		t.Fatalf("round trip ended on %v", s.View)
	}
}
