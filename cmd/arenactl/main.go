// Command arenactl runs and stress-tests first-fit arena allocator workloads.
package main

func main() {
	execute()
}
