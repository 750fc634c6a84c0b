package identify_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/pretty"
)

func ExampleIdentify_frontDoor() {
	g := admg.New("Front-door graph")
	_ = g.AddNodes("X", "M", "Y")
	_ = g.AddEdge("X", "M")
	_ = g.AddEdge("M", "Y")
	_ = g.AddBidirected("X", "Y")

	res, _ := identify.IDFixing(context.Background(), g, nodeset.New("X"), nodeset.New("Y"))
	fmt.Println(res.Identifiable)
	fmt.Println(pretty.Text.EqnCond(res.Best().Eqn))
	// Output:
	// true
	// p_{X}(Y) = Σ_{M,X'}[p(Y|M,X')p(M|X)p(X')]
}

func ExampleTruncFactor_backDoor() {
	g := admg.New("Simple back-door graph")
	_ = g.AddNodes("C", "X", "Y")
	_ = g.AddEdge("C", "X")
	_ = g.AddEdge("C", "Y")
	_ = g.AddEdge("X", "Y")

	joint, _, _ := identify.DAGFactor(g, nil, false)
	fmt.Println(pretty.Text.EqnCond(joint))

	effect, _, _ := identify.TruncFactor(g, nodeset.New("X"), nodeset.New("Y"), true)
	fmt.Println(pretty.Text.EqnCond(effect))
	// Output:
	// p(C,X,Y) = [p(Y|C,X)p(X|C)p(C)]
	// p_{X}(Y) = Σ_{C}[p(Y|C,X)p(C)]
}

func ExampleLocalMarkov() {
	g := admg.New("Symptoms")
	_ = g.AddNodes("Sinus", "Headache", "Nose", "Flu", "Allergy")
	_ = g.AddEdge("Sinus", "Nose")
	_ = g.AddEdge("Flu", "Sinus")
	_ = g.AddEdge("Sinus", "Headache")
	_ = g.AddEdge("Allergy", "Sinus")

	fmt.Println(g.TopologicalOrder())
	cis, _ := identify.LocalMarkov(g)
	for _, c := range cis.Items() {
		fmt.Println(pretty.Text.CondInd(c))
	}
	// Output:
	// [Flu Allergy Sinus Nose Headache]
	// (Allergy⊥Flu)
	// (Flu⊥Allergy)
	// (Headache⊥Allergy,Flu,Nose|Sinus)
	// (Nose⊥Allergy,Flu,Headache|Sinus)
}
