// Package diagram drives one diagram: it opens deductions from a loaded
// library, closes them again, and keeps the forest's visibility flags in
// step with every committed delta.
//
// A Diagram is not safe for concurrent use. Each Open or Close is one
// complete cycle; its delta is committed before the call returns.
package diagram
