package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/mapping --output domain/mapping --outpkg mappingmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Registry --dir ../domain/roster --output domain/roster --outpkg rostermock --filename registry_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/roster --output domain/roster --outpkg rostermock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/ranking --output domain/ranking --outpkg rankingmock --filename repository_mock.go
