// Package process terminates the headless browser tree started for rendering.
package process
