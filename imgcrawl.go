// Package imgcrawl provides a same-origin web crawler that discovers pages
// by breadth-first traversal and downloads every image they reference
// using a fixed pool of concurrent workers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package imgcrawl
