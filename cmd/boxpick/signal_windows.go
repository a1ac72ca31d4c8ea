//go:build windows

package main

func startSignalDebug() {}
