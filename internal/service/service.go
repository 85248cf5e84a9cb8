// Package service contains the business logic.
//
// It sits behind the handler layer: handlers pass it bound values and it
// produces domain values, domain failures or background work.
package service
