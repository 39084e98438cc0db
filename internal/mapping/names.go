package mapping

import "strings"

// ToBinaryName converts an internal class name (a/b/C) into its binary form (a.b.C).
func ToBinaryName(className string) string {
	return strings.ReplaceAll(className, "/", ".")
}

// ToInternalName converts a binary class name (a.b.C) into its internal form (a/b/C).
func ToInternalName(className string) string {
	return strings.ReplaceAll(className, ".", "/")
}
