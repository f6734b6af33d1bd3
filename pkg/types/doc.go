// Package types defines the public report types shared by heapkit's
// reconstruction engine, printers, and command-line tools.
//
// Design goals:
//   - Findings are data: offsets, codes, expected/actual values.
//   - Hard errors abort an analysis; soft findings are collected here.
//   - Paranoid bounds checking upstream; nothing in a report aliases mutable state.
package types
