// Package store defines the persistence interfaces and error taxonomy shared
// by store implementations and their consumers. Concrete implementations live
// under internal/platform.
package store
