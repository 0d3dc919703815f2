// Springscrape discovers Spring Boot containers through the Rancher API,
// polls each instance's /metrics endpoint and re-exports the values in
// Prometheus exposition format.
//
// Usage:
//
//	# Start the exposition server
//	springscrape --rancher http://rancher:8080/v1/
//
//	# Export only containers whose image matches a substring
//	springscrape --rancher http://rancher:8080/v1/ --image-filter spring,boot
//
//	# Run one build, print the exposition text and exit
//	springscrape --rancher http://rancher:8080/v1/ --test
//
//	# Show version information
//	springscrape version
package main

func main() {
	Execute()
}
