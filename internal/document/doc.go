// Package document implements the editor's Document model (spec component
// C2): a Text Buffer plus cursor, file metadata, local marks, and an undo
// log bound to that buffer. Document is the surface motions and operators
// mutate; it never knows about modes, registers, or other buffers — those
// live one layer up in internal/editor.
package document
