// Package cronrun runs a fixed external program from its project directory
// and appends its merged output to cron.log.
package cronrun

// Version is the cronrun release version.
const Version = "0.1.0"
