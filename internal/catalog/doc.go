// Package catalog holds the component library the canvas places from:
// built-in definitions, user definitions loaded from TOML files, option
// validation and shared deep-link decoding.
package catalog
