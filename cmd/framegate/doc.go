// Command framegate is the CLI and daemon entry point for the DICOM frame
// resolution proxy.
package main
