// Package core provides the business logic for build property tables.
//
// Builds record custom properties (name/value pairs) through
// [Service.RecordProperties]. A view ([ViewDefinition]) selects properties
// by name with a regular expression, and [Service.BuildTable] turns a job's
// properties into a table with one row per build and one column per
// selected property name.
//
// # Views
//
// Views are registered at startup, usually from configuration:
//
//	core.RegisterViews([]string{
//	    "versions|Component versions|(?i)version$",
//	    "timing|Timing|^(started|finished)$",
//	})
//
// The "all" view is always present and shows every property.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
package core
