// Package op implements the operator registry at the heart of the framework:
// kind schemas with attribute validation, operator node instantiation from
// argument lists or wire descriptors, and automatic gradient-operator
// derivation.
//
// A kind is declared once, at startup, through a schema Maker:
//
//	r := op.NewRegistry()
//	r.MustRegister("scale", func(m *op.Maker) {
//	    m.AddInput("X", "The input")
//	    m.AddOutput("Out", "The scaled input")
//	    op.AddAttr[float32](m, "scale", "Scale factor").
//	        SetDefault(1).
//	        AddChecker(op.LargerThan[float32](0))
//	}, func() op.Operator { return &scaleOp{} })
//
// and instantiated any number of times afterwards:
//
//	node, err := r.NewOp("scale", []string{"x"}, []string{"y"},
//	    op.AttributeMap{"scale": op.Make[float32](2)})
//
// Gradient kinds register under the forward kind's name; NewGradOp then
// derives a gradient node for any forward node purely from its schema and
// wiring, without executing anything.
//
// Registration is a startup-phase, single-threaded activity. After it
// finishes, the registry tables are read-only; the only synchronized state is
// the atomic counter behind temporary-variable naming, which keeps generated
// names unique under concurrent instantiation.
package op
