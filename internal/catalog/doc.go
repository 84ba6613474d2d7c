// Package catalog loads component descriptions from HCL files.
//
// The same format serves the catalog of offered components and the database
// of installed ones:
//
//	component "Pkg" {
//	  version       = "2.0"
//	  build         = 14
//	  bonus         = true
//	  multi_version = false
//	  requires      = ["Lib>=2", "Opt:Docs"]
//	  conflicts     = ["Legacy<1"]
//	  description   = "Pkg for ${var.edition}"
//	}
//
// Attribute expressions may reference values passed on the command line as
// var.<name>. Directories are searched recursively for .hcl files.
package catalog
