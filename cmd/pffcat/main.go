// Command pffcat is a thin demonstration shell over pkg/pff: it opens a PST/
// OST/PAB file and prints header, tree, property, or recovery information.
// spec.md §1 places "the command-line converters and exporters" out of
// scope for the core; this stays intentionally thin, never exporting or
// converting anything itself, following go-apfs's cmd/ convention of one
// cobra command per file wired onto a shared rootCmd.
package main

func main() {
	Execute()
}
