// Package domain defines the identifier types and collaborator interfaces
// the resolver in pkg/resolve is parameterized over. Nothing here performs
// graph traversal or conflict resolution; it only names the shapes that
// the DAG, the deploy catalog, and the mergeable channels take.
package domain
