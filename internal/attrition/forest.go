// internal/attrition/forest.go
package attrition

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"attrition-insights/internal/common/errors"
)

// RandomForest is the one strategy shipped with the core: a bagged ensemble
// of CART trees with Gini splits and sqrt-feature subsampling. Hyperparameters
// are fixed at construction; the seeded RNG makes training fully
// reproducible.
type RandomForest struct {
	trees   int
	seed    int64
	roots   []*treeNode
	trained bool
}

func NewRandomForest(trees int, seed int64) *RandomForest {
	return &RandomForest{trees: trees, seed: seed}
}

type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// Train fits the forest. It fails with INSUFFICIENT_CLASS_DATA when fewer
// than two classes are present, since a single-class fit cannot classify.
func (rf *RandomForest) Train(features [][]float64, labels []int) error {
	n := len(features)
	if n == 0 || n != len(labels) {
		return fmt.Errorf("training set has %d feature rows and %d labels", n, len(labels))
	}
	if len(features[0]) == 0 {
		return fmt.Errorf("training set has no feature columns")
	}

	counts := classCounts(labels)
	if len(counts) < 2 {
		named := make(map[string]int, len(counts))
		for class, count := range counts {
			named[fmt.Sprintf("class %d", class)] = count
		}
		return errors.NewInsufficientClassDataError(named)
	}

	nFeatures := len(features[0])
	mtry := int(math.Sqrt(float64(nFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	rng := rand.New(rand.NewSource(rf.seed))
	rf.roots = make([]*treeNode, rf.trees)
	for t := 0; t < rf.trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		rf.roots[t] = growTree(features, labels, sample, mtry, rng)
	}

	rf.trained = true
	return nil
}

// Predict returns the majority-vote class per row. Calling it before Train is
// a STATE_ERROR.
func (rf *RandomForest) Predict(features [][]float64) ([]int, error) {
	if !rf.trained {
		return nil, errors.NewStateError("Predict", "untrained", "trained")
	}

	out := make([]int, len(features))
	for i, row := range features {
		votes := make(map[int]int)
		for _, root := range rf.roots {
			votes[classify(root, row)]++
		}
		out[i] = majorityClass(votes)
	}
	return out, nil
}

func classify(node *treeNode, row []float64) int {
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.class
}

func growTree(features [][]float64, labels []int, idx []int, mtry int, rng *rand.Rand) *treeNode {
	counts := make(map[int]int)
	for _, i := range idx {
		counts[labels[i]]++
	}
	if len(counts) == 1 || len(idx) < 2 {
		return &treeNode{leaf: true, class: majorityClass(counts)}
	}

	parentGini := gini(counts, len(idx))

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	candidates := rng.Perm(len(features[0]))[:mtry]
	sort.Ints(candidates)

	for _, feat := range candidates {
		values := make([]float64, 0, len(idx))
		seen := make(map[float64]bool)
		for _, i := range idx {
			v := features[i][feat]
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		if len(values) < 2 {
			continue
		}
		sort.Float64s(values)

		for k := 0; k < len(values)-1; k++ {
			threshold := (values[k] + values[k+1]) / 2

			leftCounts := make(map[int]int)
			rightCounts := make(map[int]int)
			nLeft, nRight := 0, 0
			for _, i := range idx {
				if features[i][feat] <= threshold {
					leftCounts[labels[i]]++
					nLeft++
				} else {
					rightCounts[labels[i]]++
					nRight++
				}
			}
			if nLeft == 0 || nRight == 0 {
				continue
			}

			weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
				float64(nRight)*gini(rightCounts, nRight)) / float64(len(idx))
			gain := parentGini - weighted
			if gain > bestGain+1e-12 {
				bestGain = gain
				bestFeature = feat
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return &treeNode{leaf: true, class: majorityClass(counts)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if features[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      growTree(features, labels, leftIdx, mtry, rng),
		right:     growTree(features, labels, rightIdx, mtry, rng),
	}
}

func gini(counts map[int]int, total int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func classCounts(labels []int) map[int]int {
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// majorityClass breaks ties toward the smaller class id so results are
// deterministic across runs.
func majorityClass(counts map[int]int) int {
	best := -1
	bestCount := -1
	for class, count := range counts {
		if count > bestCount || (count == bestCount && class < best) {
			best = class
			bestCount = count
		}
	}
	return best
}
