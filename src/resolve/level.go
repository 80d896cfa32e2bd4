package resolve

import (
	"fmt"
	"strings"
)

// LanguageLevel is the Java source/target compatibility and Kotlin jvmTarget
// shared by every variant.
type LanguageLevel string

const (
	Java8  LanguageLevel = "1.8"
	Java11 LanguageLevel = "11"
	Java17 LanguageLevel = "17"
	Java21 LanguageLevel = "21"
)

// DefaultLanguageLevel applies when a descriptor declares none.
const DefaultLanguageLevel = Java11

var languageLevels = []LanguageLevel{Java8, Java11, Java17, Java21}

// ParseLanguageLevel accepts "11", "VERSION_11", "JavaVersion.VERSION_11",
// "1.8", "1_8" and "8". Empty input yields DefaultLanguageLevel.
func ParseLanguageLevel(s string) (LanguageLevel, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return DefaultLanguageLevel, nil
	}
	v = strings.TrimPrefix(v, "JavaVersion.")
	v = strings.TrimPrefix(v, "VERSION_")
	v = strings.ReplaceAll(v, "_", ".")
	if v == "8" {
		v = "1.8"
	}

	for _, l := range languageLevels {
		if string(l) == v {
			return l, nil
		}
	}

	names := make([]string, len(languageLevels))
	for i, l := range languageLevels {
		names[i] = string(l)
	}
	return "", fmt.Errorf("unknown language level %q (supported: %s)", s, strings.Join(names, ", "))
}

// GradleName returns the JavaVersion constant name, e.g. "VERSION_11".
func (l LanguageLevel) GradleName() string {
	return "VERSION_" + strings.ReplaceAll(string(l), ".", "_")
}
