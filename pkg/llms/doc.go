// Package llms defines the provider-neutral contract of the completion model:
// a conversation of role tagged turns plus optional tool schemas goes in,
// an ordered list of text and function-call parts comes out.
//
// Provider implementations live in subpackages.
package llms
