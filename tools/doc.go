// Package tools defines the Tool interface for tools served over the tool protocol.
// Typed tools are built from plain Go functions, their input schema is reflected from the input type.
package tools
