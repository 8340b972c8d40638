package dedupe

import "testing"

func TestNormalizeCourse(t *testing.T) {
	n := NewCourseNormalizer(DefaultCourseAliases)

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces", input: "Math 226", want: "MATH-226"},
		{name: "hyphen", input: "MATH-226", want: "MATH-226"},
		{name: "glued", input: "MATH226", want: "MATH-226"},
		{name: "alias expansion", input: "CS104", want: "CSCI-104"},
		{name: "alias with space", input: "cs 104", want: "CSCI-104"},
		{name: "already canonical", input: "CSCI-104", want: "CSCI-104"},
		{name: "empty", input: "", want: "OTHER"},
		{name: "whitespace only", input: "   ", want: "OTHER"},
		{name: "digits only", input: "226", want: "226"},
		{name: "trailing hyphen", input: "PHYS-151-", want: "PHYS-151"},
		{name: "run of separators", input: "EE  -  250", want: "EE-250"},
		{name: "first boundary only", input: "MATH226B1", want: "MATH-226B1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeCourseVariantsAgree(t *testing.T) {
	n := NewCourseNormalizer(DefaultCourseAliases)
	variants := []string{"Math 226", "MATH-226", "MATH226", "math   226"}
	want := n.Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := n.Normalize(v); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}
