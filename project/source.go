package project

import (
	"bufio"
	"encoding/json"
	"strings"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/version"
)

// Source names where a required version came from.
type Source string

// Sources in resolution priority order.
const (
	SourceNVMRC        Source = ".nvmrc"
	SourceNodeVersion  Source = ".node-version"
	SourceToolVersions Source = ".tool-versions"
	SourceVolta        Source = "package.json (volta.node)"
	SourceEngines      Source = "package.json (engines.node)"
)

// File names the resolver reads.
const (
	FileNVMRC        = ".nvmrc"
	FileNodeVersion  = ".node-version"
	FileToolVersions = ".tool-versions"
	FileManifest     = "package.json"
)

// ConfigFiles lists every recognized configuration file.
var ConfigFiles = []string{FileNVMRC, FileNodeVersion, FileToolVersions, FileManifest}

// toolVersionsToken identifies Node entries in .tool-versions.
const toolVersionsToken = "nodejs"

// Config is the resolved version requirement of a project.
type Config struct {
	Version string `json:"version" yaml:"version"`
	Source  Source `json:"source" yaml:"source"`
}

type fileKind int

const (
	kindPin fileKind = iota
	kindManifest
)

// source is one entry in the priority list. extract returns "" when the file
// holds no usable version.
type source struct {
	source  Source
	file    string
	kind    fileKind
	extract func(content string) (string, error)
}

var sources = []source{
	{source: SourceNVMRC, file: FileNVMRC, kind: kindPin, extract: parsePin},
	{source: SourceNodeVersion, file: FileNodeVersion, kind: kindPin, extract: parsePin},
	{source: SourceToolVersions, file: FileToolVersions, kind: kindPin, extract: parseToolVersions},
	{source: SourceVolta, file: FileManifest, kind: kindManifest, extract: manifestField(func(m manifest) string { return m.volta() })},
	{source: SourceEngines, file: FileManifest, kind: kindManifest, extract: manifestField(func(m manifest) string { return m.engines() })},
}

func parsePin(content string) (string, error) {
	return strings.TrimSpace(content), nil
}

// parseToolVersions returns the remainder of the first "nodejs" line.
func parseToolVersions(content string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, toolVersionsToken)
		if !ok {
			continue
		}
		// Require the token to stand alone ("nodejs 18", not "nodejsx 18").
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), nil
	}
	return "", scanner.Err()
}

type manifest struct {
	Volta   map[string]any `json:"volta"`
	Engines map[string]any `json:"engines"`
}

func (m manifest) volta() string   { return stringField(m.Volta, "node") }
func (m manifest) engines() string { return stringField(m.Engines, "node") }

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func manifestField(field func(manifest) string) func(string) (string, error) {
	return func(content string) (string, error) {
		var m manifest
		if err := json.Unmarshal([]byte(content), &m); err != nil {
			return "", errors.Wrap(err, errors.CodeParseFailed, "malformed package.json")
		}
		return field(m), nil
	}
}

// normalizeSpec strips a leading "v". Specs from package.json that carry an
// operator or range marker are collapsed to their first x.y.z version, so
// ">=18.17.0 <21" becomes "18.17.0"; pin files keep operators verbatim.
func normalizeSpec(spec string, kind fileKind) string {
	spec = version.Normalize(spec)
	if kind != kindManifest || !version.HasRangeMarker(spec) {
		return spec
	}
	if triple, ok := version.ExtractTriple(spec); ok {
		return triple
	}
	return spec
}
