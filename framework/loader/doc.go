// Package loader registers declarative service and parameter descriptions
// into a container.Registry.
//
// A declaration with a "module" field is a service: the module identifier is
// looked up in a ModuleResolver (usually a Modules table) and the factory is
// stored under the entry name, while every other field becomes a parameter
// local to that service. Any other declaration is a global parameter.
//
//	mods := loader.NewModules().
//	    Register(filepath.Join(dir, "services/mailer"), mailerFactory)
//
//	err := loader.New(mods).LoadFile(container.Named("app"), filepath.Join(dir, "services.yaml"))
//
// Declaration files may be JSON, YAML or TOML.
package loader
