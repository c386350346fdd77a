// Package config provides configuration structures and utilities for appmodkit.
// It defines the options of the assess and history commands, the optional
// .appmodkit YAML file and the XDG directories used for run history.
package config
