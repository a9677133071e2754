// Package buildsys implements the small runtime behind pdfmake's targets: a
// table of named targets with dependencies, an Executor for external commands
// built on mvdan.cc/sh, and the two error kinds that decide the process exit
// status.
package buildsys
