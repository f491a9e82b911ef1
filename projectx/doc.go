// Package projectx submits projects to the project server and interprets the answer.
//
// An Adder posts one Project as multipart/form-data and raises exactly one of its
// OnSuccess or OnFailure callbacks: a 200 answer is a success, anything else, a transport
// error included, is a failure carrying the response text.
package projectx
