// Package config provides configuration structures and utilities for
// vistoria. It defines where inspection data and the column mapping are
// read from, how long fetched datasets are cached, how reports are
// written and who may use the HTTP server.
package config
