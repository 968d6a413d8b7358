// Package prompts supplies the benchmark's input text: fixed pools of
// prompts grouped by the approximate size of the completion they provoke.
package prompts

import (
	"fmt"
	"math/rand/v2"
)

// Size selects which prompt pool to draw from.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var smallPrompts = []string{
	"Qual è la capitale della Francia?",
	"What is 2 + 2?",
	"Name three primary colors.",
	"Who wrote Romeo and Juliet?",
	"What is the boiling point of water in Celsius?",
	"Translate 'hello' to Spanish.",
	"What planet is closest to the Sun?",
	"How many continents are there?",
	"What is the chemical symbol for gold?",
	"Name the largest ocean on Earth.",
	"What year did the Titanic sink?",
	"What is the square root of 144?",
	"Who painted the Mona Lisa?",
	"What is the currency of Japan?",
	"How many legs does a spider have?",
}

var mediumPrompts = []string{
	"Explain the difference between TCP and UDP in simple terms.",
	"Write a short paragraph about the history of the Internet.",
	"Describe how a neural network learns, step by step.",
	"What are the main differences between Python and JavaScript?",
	"Summarize the plot of '1984' by George Orwell in a few sentences.",
	"Explain what a hash table is and why it is useful.",
	"Describe the water cycle in detail.",
	"What are the pros and cons of remote work?",
	"Explain the concept of recursion with a simple example.",
	"Describe the main causes of climate change.",
}

var largePrompts = []string{
	"Write a detailed tutorial on how to build a REST API with Python and Flask, including code examples.",
	"Explain the theory of relativity in depth, covering both special and general relativity with examples.",
	"Write a comprehensive comparison of SQL and NoSQL databases, including use cases, advantages, and disadvantages.",
	"Describe the complete lifecycle of a machine learning project from data collection to deployment.",
	"Write a detailed essay about the history and evolution of programming languages from the 1950s to today.",
	"Explain distributed systems concepts: CAP theorem, consensus algorithms, and partition tolerance with examples.",
	"Write a thorough guide to container orchestration with Kubernetes, covering pods, services, and deployments.",
	"Describe the architecture of a modern web application, from frontend to backend to infrastructure.",
}

// pools maps each size class to its prompt pool.
var pools = map[Size][]string{
	SizeSmall:  smallPrompts,
	SizeMedium: mediumPrompts,
	SizeLarge:  largePrompts,
}

// ValidSizes returns the supported size class names.
func ValidSizes() []string {
	return []string{string(SizeSmall), string(SizeMedium), string(SizeLarge)}
}

// Pick returns n prompts drawn uniformly (with replacement) from the pool
// for the given size class.
func Pick(n int, size Size) ([]string, error) {
	pool, ok := pools[size]
	if !ok {
		return nil, fmt.Errorf("unknown prompt size %q (valid: small, medium, large)", size)
	}

	picked := make([]string, n)
	for i := range picked {
		picked[i] = pool[rand.IntN(len(pool))]
	}

	return picked, nil
}
