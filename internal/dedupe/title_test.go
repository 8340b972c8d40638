package dedupe

import "testing"

func TestNormalizeTitle(t *testing.T) {
	n := NewTitleNormalizer(DefaultVerbPrefixes, DefaultBracketLabels)

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "verb prefix", input: "Submit HW1", want: "hw1"},
		{name: "verb with via suffix", input: "Complete HW1 via GitHub", want: "hw1"},
		{name: "verb course via", input: "Complete CS104 HW1 via GitHub", want: "hw1"},
		{name: "homework leading zero", input: "Homework 01", want: "hw1"},
		{name: "hw assignment", input: "HW Assignment 1", want: "hw1"},
		{name: "bracket lab greedy", input: "[Lab] lab01 install dart", want: "lab1"},
		{name: "lab discards trailing text", input: "Lab 2 report writeup", want: "lab2"},
		{name: "problem set", input: "Problem Set 3", want: "ps3"},
		{name: "ps short form", input: "PS 03", want: "ps3"},
		{name: "quiz", input: "Quiz 1", want: "quiz1"},
		{name: "trailing parenthetical", input: "HW1 (coding + written)", want: "hw1"},
		{name: "two word verb", input: "Work on essay draft", want: "essay draft"},
		{name: "plain text keeps tail", input: "Read Chapter 7 before section", want: "chapter 7 before section"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace collapse", input: "  Midterm   Study    Guide ", want: "midterm study guide"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitleVariantsAgree(t *testing.T) {
	n := NewTitleNormalizer(DefaultVerbPrefixes, DefaultBracketLabels)
	variants := []string{"HW1", "HW 1", "Homework 01", "HW Assignment 1", "Submit HW1", "Complete HW1 via GitHub"}
	for _, v := range variants {
		if got := n.Normalize(v); got != "hw1" {
			t.Fatalf("Normalize(%q) = %q, want %q", v, got, "hw1")
		}
	}
}
