// Package tree nests a post's flat, chronologically ordered comments into
// reply threads.
package tree

import (
	"slices"

	"forum/internal/models"
)

// Build returns the reply forest for one post. The input must be ordered by
// ascending creation time; siblings keep that order in the output.
//
// A comment whose parent is not in the input (or is itself) is promoted to
// the top level. Parent cycles are broken by promoting the earliest comment
// of the cycle, so every input comment appears exactly once. The input
// records are not modified.
func Build(postID int64, flat []*models.Comment) models.CommentTree {
	nodes := make([]*models.Comment, len(flat))
	position := make(map[int64]int, len(flat))
	for i, c := range flat {
		node := *c
		node.Replies = []*models.Comment{}
		nodes[i] = &node
		if _, dup := position[c.ID]; !dup {
			position[c.ID] = i
		}
	}

	children := make(map[int][]int)
	var top []int
	for i, c := range flat {
		if c.ParentID != nil {
			if p, ok := position[*c.ParentID]; ok && p != i {
				children[p] = append(children[p], i)
				continue
			}
		}
		top = append(top, i)
	}

	visited := make([]bool, len(flat))
	attach := func(root int) {
		visited[root] = true
		stack := []int{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, c := range children[n] {
				if visited[c] {
					continue
				}
				visited[c] = true
				nodes[n].Replies = append(nodes[n].Replies, nodes[c])
				stack = append(stack, c)
			}
		}
	}

	for _, i := range top {
		attach(i)
	}
	// Anything still unvisited hangs off a parent cycle.
	for i := range flat {
		if !visited[i] {
			top = append(top, i)
			attach(i)
		}
	}
	slices.Sort(top)

	forest := make([]*models.Comment, 0, len(top))
	for _, i := range top {
		forest = append(forest, nodes[i])
	}
	return models.CommentTree{
		PostID:        postID,
		Comments:      forest,
		TotalComments: len(flat),
	}
}

// Count returns the number of comments in a forest, replies included.
func Count(forest []*models.Comment) int {
	n := 0
	stack := slices.Clone(forest)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, c.Replies...)
	}
	return n
}
