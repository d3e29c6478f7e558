/*
Package queue defines the tasks of a repeated evaluation, each of them a
train/test run over a dataset, as well as an interface for a Queue to
distribute them among workers.

It also provides an in-memory implementation of the Queue interface.
*/
package queue
