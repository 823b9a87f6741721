// Package watcher turns class-attribute mutations of a single element into
// edge-triggered callbacks: one when a class appears, one when it goes away.
package watcher
