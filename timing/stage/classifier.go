package stage

import (
	"fmt"
	"sort"
)

// A Classifier maps mnemonics to latency classes. It is read-only after
// construction and safe for concurrent use.
type Classifier struct {
	classes map[string]Class
}

// NewClassifier builds a classifier from the member lists of the three
// vector classes. Anything not listed is Scalar. A mnemonic listed in more
// than one class is an error.
func NewClassifier(vset, long, short []string) (*Classifier, error) {
	c := &Classifier{classes: make(map[string]Class)}

	groups := []struct {
		class   Class
		members []string
	}{
		{VectorConfig, vset},
		{LongVectorSignal, long},
		{ShortVectorSignal, short},
	}
	for _, g := range groups {
		for _, m := range g.members {
			if prev, found := c.classes[m]; found && prev != g.class {
				return nil, fmt.Errorf("%s is both %s and %s", m, prev, g.class)
			}
			c.classes[m] = g.class
		}
	}

	return c, nil
}

// Classify returns the class of the mnemonic.
func (c *Classifier) Classify(mnemonic string) Class {
	class, found := c.classes[mnemonic]
	if !found {
		return Scalar
	}
	return class
}

// Members returns the mnemonics explicitly listed under the class, sorted.
func (c *Classifier) Members(class Class) []string {
	var out []string
	for m, cl := range c.classes {
		if cl == class {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

var defaultClassifier *Classifier

func init() {
	var err error
	defaultClassifier, err = NewClassifier(VsetInsts, LongVectorInsts, ShortVectorInsts)
	if err != nil {
		panic(err)
	}
}

// Default returns the classifier built from the Vicuna instruction tables.
func Default() *Classifier {
	return defaultClassifier
}
