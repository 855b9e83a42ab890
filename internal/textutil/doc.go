// Package textutil holds small text formatting helpers for display output.
package textutil
