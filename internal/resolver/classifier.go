package resolver

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"asistan/internal/catalog"
	"asistan/internal/textnorm"
)

const (
	trainEpochs       = 400
	trainLearningRate = 0.5
	trainL2           = 1e-4
	trainSeed         = 42
	// Below this example count there is no held-out split: the model is
	// evaluated on its own training set, so the reported accuracy is not
	// a generalization estimate.
	minExamplesForSplit = 20
	heldOutFraction     = 0.2
)

// Classifier is a multinomial logistic regression over TF-IDF vectors. Fitting
// is deterministic: full-batch gradient descent with a fixed seed for the
// train/test shuffle.
type Classifier struct {
	Vectorizer *Vectorizer `json:"vectorizer"`
	Classes    []string    `json:"classes"`
	// Weights[c] is the weight row for Classes[c]; Bias[c] its intercept.
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

func NewClassifier(maxFeatures int) *Classifier {
	return &Classifier{Vectorizer: NewVectorizer(maxFeatures)}
}

// Fitted reports whether the classifier carries trained state.
func (c *Classifier) Fitted() bool {
	return c.Vectorizer != nil && c.Vectorizer.Dims() > 0 && len(c.Classes) > 0 && len(c.Weights) == len(c.Classes)
}

// Train fits the vectorizer and the linear model on every pattern of the
// catalog and returns held-out accuracy. With fewer than 20 examples the
// model is scored on the full training set instead of a split.
func (c *Classifier) Train(cat *catalog.Catalog) (float64, error) {
	examples := cat.Examples()
	if len(examples) == 0 {
		return 0, fmt.Errorf("catalog has no training patterns")
	}

	classSet := make(map[string]struct{})
	for _, ex := range examples {
		classSet[ex.Tag] = struct{}{}
	}
	if len(classSet) < 2 {
		return 0, fmt.Errorf("need at least two intent classes, got %d", len(classSet))
	}

	train, test := splitExamples(examples)

	docs := make([]string, len(train))
	for i, ex := range train {
		docs[i] = ex.Text
	}
	c.Vectorizer.Fit(docs)

	c.Classes = make([]string, 0, len(classSet))
	for tag := range classSet {
		c.Classes = append(c.Classes, tag)
	}
	sort.Strings(c.Classes)
	classIndex := make(map[string]int, len(c.Classes))
	for i, tag := range c.Classes {
		classIndex[tag] = i
	}

	features := make([][]float64, len(train))
	labels := make([]int, len(train))
	for i, ex := range train {
		features[i] = c.Vectorizer.Transform(ex.Text)
		labels[i] = classIndex[ex.Tag]
	}

	c.fit(features, labels)

	correct := 0
	for _, ex := range test {
		tag, _ := c.Predict(ex.Text)
		if tag == ex.Tag {
			correct++
		}
	}
	return float64(correct) / float64(len(test)), nil
}

// splitExamples produces the train and held-out sets. Small corpora train and
// evaluate on the same full set.
func splitExamples(examples []catalog.TrainingExample) (train, test []catalog.TrainingExample) {
	if len(examples) < minExamplesForSplit {
		return examples, examples
	}

	shuffled := make([]catalog.TrainingExample, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(trainSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(float64(len(shuffled)) * heldOutFraction)
	if testSize < 1 {
		testSize = 1
	}
	return shuffled[testSize:], shuffled[:testSize]
}

// fit runs full-batch gradient descent on the softmax cross-entropy loss.
func (c *Classifier) fit(features [][]float64, labels []int) {
	numClasses := len(c.Classes)
	dims := c.Vectorizer.Dims()

	c.Weights = make([][]float64, numClasses)
	for k := range c.Weights {
		c.Weights[k] = make([]float64, dims)
	}
	c.Bias = make([]float64, numClasses)

	n := float64(len(features))
	gradW := make([][]float64, numClasses)
	for k := range gradW {
		gradW[k] = make([]float64, dims)
	}
	gradB := make([]float64, numClasses)

	for epoch := 0; epoch < trainEpochs; epoch++ {
		for k := range gradW {
			for j := range gradW[k] {
				gradW[k][j] = 0
			}
			gradB[k] = 0
		}

		for i, x := range features {
			probs := c.softmax(x)
			for k := 0; k < numClasses; k++ {
				delta := probs[k]
				if k == labels[i] {
					delta -= 1
				}
				if delta == 0 {
					continue
				}
				row := gradW[k]
				for j, xj := range x {
					if xj != 0 {
						row[j] += delta * xj
					}
				}
				gradB[k] += delta
			}
		}

		for k := 0; k < numClasses; k++ {
			wRow := c.Weights[k]
			gRow := gradW[k]
			for j := range wRow {
				wRow[j] -= trainLearningRate * (gRow[j]/n + trainL2*wRow[j])
			}
			c.Bias[k] -= trainLearningRate * gradB[k] / n
		}
	}
}

func (c *Classifier) softmax(x []float64) []float64 {
	logits := make([]float64, len(c.Classes))
	maxLogit := math.Inf(-1)
	for k, row := range c.Weights {
		var dot float64
		for j, xj := range x {
			if xj != 0 {
				dot += row[j] * xj
			}
		}
		logits[k] = dot + c.Bias[k]
		if logits[k] > maxLogit {
			maxLogit = logits[k]
		}
	}

	var sum float64
	for k := range logits {
		logits[k] = math.Exp(logits[k] - maxLogit)
		sum += logits[k]
	}
	for k := range logits {
		logits[k] /= sum
	}
	return logits
}

// Predict vectorizes the normalized input and returns the arg-max class with
// its probability. The caller decides what to do with low confidence.
func (c *Classifier) Predict(text string) (string, float64) {
	probs := c.softmax(c.Vectorizer.Transform(textnorm.Normalize(text)))
	best := 0
	for k := 1; k < len(probs); k++ {
		if probs[k] > probs[best] {
			best = k
		}
	}
	return c.Classes[best], probs[best]
}
