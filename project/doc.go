// Package project resolves the Node version a project requires.
//
// Sources are tried in a fixed order and the first one yielding a version
// wins:
//
//  1. .nvmrc
//  2. .node-version
//  3. .tool-versions (the "nodejs" line)
//  4. package.json volta.node
//  5. package.json engines.node
//
// A leading "v" is stripped from every version. Versions from package.json
// that contain an operator or range are reduced to their x.y.z part; pin
// files are passed through unchanged.
package project
