// Package families holds the per-family adaptors behind the prediction
// dispatcher. Each family implements the closed Family interface (native
// predict plus refit) and may additionally expose interval computation,
// parametric simulation for mixed models, or posterior draws for Bayesian
// handles. A registry maps family tags to implementations, so supporting a
// new family means registering one value, not touching the dispatcher.
package families
