// Package codegen turns an ordered model into render contexts for the
// template engine.
//
// The cxx and py3 backends share one visitor that projects IDL types
// through a types.Registry, collects the includes those projections
// need and describes every enum and interface. The python backend
// describes the same model for boost::python style bindings. Build
// selects a backend by language name; WriteFile emits the rendered
// result, removing the file again when rendering fails.
package codegen
