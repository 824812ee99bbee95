// File: fennec-dl/config/doc.go

// Package config provides hierarchical experiment configuration: nested trees
// with dotted-path addressing, optional schema checking, one-way freezing, a
// YAML loader with file inclusion and value references, and grid expansion of
// command-line overrides for parameter sweeps.
//
// Features:
//   - Schema-free trees (DynamicTree) and schema-checked trees (StaticTree)
//     behind one Tree interface
//   - Dotted FQN addressing: Get("model.optimizer.lr")
//   - Freeze for read-only sharing between goroutines, Clone for private copies
//   - !include and !ref directives in YAML documents, plus JSON(C) and TOML input
//   - Cartesian-product grids of overrides, fed from pflag flags
//   - Struct decoding through mapstructure
//
// Quick Start:
//
//	// run.yaml
//	//   seed: 1
//	//   model: !include model.yaml
//	//   eval:
//	//     lr: !ref model.lr
//
//	tree, err := config.LoadDynamic("run.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tree.Freeze()
//
//	lr, _ := config.GetFloat(tree, "eval.lr")
//
// Schema-checked trees declare every field up front:
//
//	optimizer := config.NewSchema("optimizer").
//	    Field("lr", config.Float).
//	    Field("momentum", config.Optional(config.Float))
//	run := config.NewSchema("run").
//	    Field("seed", config.Int).
//	    Field("layers", config.List(config.Int)).
//	    Field("optimizer", config.Nested(optimizer))
//
//	tree, err := config.LoadStatic("run.yaml", run)
//
// Missing fields and wrong types fail the load with ErrConfigLoading, extra
// fields are logged and dropped. Loading failures carry no detail beyond the
// file name; the cause is logged at debug level.
//
// Grids:
//
//	flagSet := pflag.NewFlagSet("sweep", pflag.ContinueOnError)
//	_ = config.AddOverrideFlags(flagSet, tree, config.FlagOptions{})
//	_ = flagSet.Parse([]string{"--seed", "1", "--seed", "2", "--optimizer.lr", "0.1"})
//	variants, err := config.ExpandFlags(flagSet, tree) // two trees
//
// Thread Safety:
// Trees carry no locks. A frozen tree may be read concurrently; an unfrozen tree
// must be owned by one goroutine at a time.
package config
