// Package main provides the entry point of guit-portal, the back office of the
// Guit County website. It serves a json api over a document store for the site
// content, a consolidated public data feed, file uploads and the admin
// accounts, plus a small dashboard page.
package main
