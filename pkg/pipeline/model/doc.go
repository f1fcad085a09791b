// Package model provides the data structures shared by the pipeline package and its options.
// It defines the stages of a sequence, their details and the hooks a sequence option implements.
package model
