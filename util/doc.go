// Package util holds small string and size helpers shared by config and
// transport code.
package util
