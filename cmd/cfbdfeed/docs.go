package main

// General API documentation for swaggo. Run `swag init` to generate docs.
//
// @title           cfbdfeed API
// @version         1.0
// @description     HTTP API over the live CFBD scoreboard event buffer.
//
// @BasePath  /
//
// @schemes http
