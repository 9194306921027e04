// Package eta provides travel time and traffic prediction. The heuristic
// model combines distance, congestion, vehicle type and time of day; its
// stochastic correction draws from an injected seedable generator so outputs
// are reproducible in tests.
package eta
