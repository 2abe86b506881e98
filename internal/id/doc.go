// Package id provides identifier generation for hookd.
//
// Captured requests and generated spaces use UUID v4 strings from
// github.com/google/uuid. Short hex IDs label observer subscriptions in logs,
// where a full UUID adds noise without adding information.
package id
